package worker

import (
	"strings"

	"github.com/screa/vanity-miner/pkg/types"
)

// Matches reports whether address satisfies criteria. Comparison is
// case-insensitive and a leading 0x on address is ignored. Empty prefix
// and suffix always match.
func Matches(address string, criteria types.Criteria) bool {
	addr := address
	if len(addr) >= 2 && (addr[:2] == "0x" || addr[:2] == "0X") {
		addr = addr[2:]
	}

	if p := criteria.Prefix; p != "" {
		if len(addr) < len(p) || !strings.EqualFold(addr[:len(p)], p) {
			return false
		}
	}

	if s := criteria.Suffix; s != "" {
		if len(addr) < len(s) || !strings.EqualFold(addr[len(addr)-len(s):], s) {
			return false
		}
	}

	return true
}
