package pandad

import (
	"sort"
	"strings"
)

// boardOrder is the total order used to hand serials to the daemon in a
// deterministic sequence: internal boards first, then by hardware type,
// ties broken by serial. Returns <0, 0 or >0 like strings.Compare.
func boardOrder(a, b *Board) int {
	aExt, bExt := boolToInt(!a.Type.Internal()), boolToInt(!b.Type.Internal())
	if aExt != bExt {
		return aExt - bExt
	}
	if a.Type != b.Type {
		return int(a.Type) - int(b.Type)
	}
	return strings.Compare(a.Serial, b.Serial)
}

// SortBoards orders boards in place so that repeated runs over the same
// physical set produce an identical daemon argument list. The sort is
// stable and idempotent.
func SortBoards(boards []*Board) {
	sort.SliceStable(boards, func(i, j int) bool {
		return boardOrder(boards[i], boards[j]) < 0
	})
}

// Serials returns the serial numbers of boards in their current order.
func Serials(boards []*Board) []string {
	serials := make([]string, len(boards))
	for i, b := range boards {
		serials[i] = b.Serial
	}
	return serials
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
