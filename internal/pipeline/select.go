package pipeline

import (
	"strings"

	"github.com/teemow/mailsift/internal/gmail"
)

// SelectAttachment scans the manifest in its given order and returns the
// first entry whose content type exactly matches a member of the allow-list
// (case-insensitive, no wildcard or prefix matching). It returns nil when no
// entry qualifies; the message is then skipped, which is not an error.
//
// Selection is a pure function of (manifest order, allow-list): running it
// twice over the same inputs picks the same entry. Provider manifest order is
// not contractually documented, so the first-match rule is an explicit scan
// here rather than an assumption about provider ordering.
func SelectAttachment(manifest []*gmail.AttachmentInfo, allowed []string) *gmail.AttachmentInfo {
	for _, entry := range manifest {
		for _, ct := range allowed {
			if strings.EqualFold(entry.MimeType, ct) {
				return entry
			}
		}
	}
	return nil
}
