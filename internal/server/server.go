package server

// Server aggregates the entity-specific HTTP servers behind one route
// registrar.
type Server struct {
	WishlistServer
	ClaimServer
	WalletServer
	PaymentServer
	ReminderServer
	AdminServer

	auth AuthMiddleware
}

func NewServer(
	wishlistServer WishlistServer,
	claimServer ClaimServer,
	walletServer WalletServer,
	paymentServer PaymentServer,
	reminderServer ReminderServer,
	adminServer AdminServer,
	auth AuthMiddleware,
) Server {
	return Server{
		WishlistServer: wishlistServer,
		ClaimServer:    claimServer,
		WalletServer:   walletServer,
		PaymentServer:  paymentServer,
		ReminderServer: reminderServer,
		AdminServer:    adminServer,
		auth:           auth,
	}
}
