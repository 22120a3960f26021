package pandad

import (
	"reflect"
	"testing"
)

func board(t HardwareType, serial string) *Board {
	return &Board{Serial: serial, Type: t}
}

func TestSortBoardsInternalFirst(t *testing.T) {
	boards := []*Board{
		board(HardwareUno, "serialB"),
		board(HardwareRed, "serialA"),
		board(HardwareUno, "serialA"),
	}

	SortBoards(boards)

	expected := []string{"serialA", "serialB", "serialA"}
	if got := Serials(boards); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected order %v, got %v", expected, got)
	}
	if !boards[0].Type.Internal() || !boards[1].Type.Internal() {
		t.Error("Expected internal boards to sort first")
	}
	if boards[2].Type.Internal() {
		t.Error("Expected external board to sort last")
	}
}

func TestSortBoardsByHardwareType(t *testing.T) {
	boards := []*Board{
		board(HardwareRed, "Z"),
		board(HardwareBlack, "Z"),
		board(HardwareDos, "Z"),
		board(HardwareUno, "Z"),
	}

	SortBoards(boards)

	expected := []HardwareType{HardwareUno, HardwareDos, HardwareBlack, HardwareRed}
	for i, want := range expected {
		if boards[i].Type != want {
			t.Errorf("Position %d: expected %v, got %v", i, want, boards[i].Type)
		}
	}
}

func TestSortBoardsBySerial(t *testing.T) {
	boards := []*Board{
		board(HardwareRed, "CCC"),
		board(HardwareRed, "AAA"),
		board(HardwareRed, "BBB"),
	}

	SortBoards(boards)

	expected := []string{"AAA", "BBB", "CCC"}
	if got := Serials(boards); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected order %v, got %v", expected, got)
	}
}

func TestSortBoardsIdempotent(t *testing.T) {
	boards := []*Board{
		board(HardwareRed, "serialA"),
		board(HardwareUno, "serialB"),
		board(HardwareUno, "serialA"),
		board(HardwareBlack, "serialC"),
	}

	SortBoards(boards)
	first := Serials(boards)

	SortBoards(boards)
	second := Serials(boards)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Sorting an already-sorted sequence changed it: %v vs %v", first, second)
	}
}

func TestBoardOrderIsThreeWay(t *testing.T) {
	a := board(HardwareUno, "AAA")
	b := board(HardwareRed, "AAA")

	if boardOrder(a, b) >= 0 {
		t.Error("Expected internal board to order before external")
	}
	if boardOrder(b, a) <= 0 {
		t.Error("Expected external board to order after internal")
	}
	if boardOrder(a, a) != 0 {
		t.Error("Expected a board to compare equal to itself")
	}
}
