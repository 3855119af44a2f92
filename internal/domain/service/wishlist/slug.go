package wishlist

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/xid"
)

const maxSlugLen = 60

// Slugify lowercases the title and collapses everything that is not a
// letter or digit into single hyphens.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true

	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	slug := strings.Trim(b.String(), "-")
	if len(slug) > maxSlugLen {
		// Back up to a rune boundary so the cut never splits a multibyte
		// letter.
		cut := maxSlugLen
		for cut > 0 && !utf8.RuneStart(slug[cut]) {
			cut--
		}

		slug = strings.Trim(slug[:cut], "-")
	}

	if slug == "" {
		slug = "wishlist"
	}

	return slug
}

// uniqueSuffix disambiguates a taken slug with the tail of an xid. The
// head of an xid is a timestamp plus machine id and repeats within the
// same second on one host; the tail carries the counter and stays unique
// across back-to-back calls while keeping the link shareable.
func uniqueSuffix(slug string) string {
	id := xid.New().String()
	return slug + "-" + id[len(id)-8:]
}
