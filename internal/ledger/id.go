package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const idSuffixLength = 9

// NewExpenseID returns exp_<unix-millis>_<9 lowercase alphanumerics>.
func NewExpenseID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("exp_%d_%s", now.UnixMilli(), suffix[:idSuffixLength])
}
