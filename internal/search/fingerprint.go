package search

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"

	"github.com/gogotex/blog/internal/post"
)

// Fingerprint is a stable hash of the indexed fields of posts, in order.
// Equal fingerprints mean an index built from either collection answers
// every query the same way.
func Fingerprint(posts []post.Post) string {
	h := sha256.New()
	for _, p := range posts {
		for _, s := range []string{p.ID, p.Title, p.Description, p.Date, p.Content} {
			h.Write([]byte(s))
			h.Write([]byte{0})
		}
		tags := slices.Clone(p.Tags)
		slices.Sort(tags)
		h.Write([]byte(strings.Join(tags, "\x01")))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
