package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBedLabels(t *testing.T) {
	assert.Equal(t, []string{"B1"}, BedLabels(1))
	assert.Equal(t, []string{"B1", "B2", "B3"}, BedLabels(3))
	assert.Empty(t, BedLabels(0))
}

func TestValidBedLabel(t *testing.T) {
	assert.True(t, ValidBedLabel(2, "B1"))
	assert.True(t, ValidBedLabel(2, "B2"))
	assert.True(t, ValidBedLabel(12, "B10"))

	assert.False(t, ValidBedLabel(2, "B3"), "beyond capacity")
	assert.False(t, ValidBedLabel(2, "B0"))
	assert.False(t, ValidBedLabel(2, "B-1"))
	assert.False(t, ValidBedLabel(2, "B01"), "zero-padded variant")
	assert.False(t, ValidBedLabel(2, "b1"))
	assert.False(t, ValidBedLabel(2, "1"))
	assert.False(t, ValidBedLabel(2, ""))
	assert.False(t, ValidBedLabel(2, "Bx"))
}

func TestLowestFreeBed(t *testing.T) {
	none := map[string]bool{}
	assert.Equal(t, "B1", LowestFreeBed(4, none))

	taken := map[string]bool{"B1": true, "B3": true}
	assert.Equal(t, "B2", LowestFreeBed(4, taken))

	taken["B2"] = true
	assert.Equal(t, "B4", LowestFreeBed(4, taken))

	taken["B4"] = true
	assert.Equal(t, "", LowestFreeBed(4, taken), "full room has no free bed")
}

func TestLowestFreeBedDeterministic(t *testing.T) {
	taken := map[string]bool{"B2": true}
	for i := 0; i < 10; i++ {
		assert.Equal(t, "B1", LowestFreeBed(3, taken))
	}
}

func TestFreeBeds(t *testing.T) {
	assert.Equal(t, []string{"B1", "B2"}, FreeBeds(2, nil))
	assert.Equal(t, []string{"B2"}, FreeBeds(2, map[string]bool{"B1": true}))
	assert.Empty(t, FreeBeds(2, map[string]bool{"B1": true, "B2": true}))

	// 双位数编号仍按数值升序
	taken := map[string]bool{"B3": true}
	free := FreeBeds(12, taken)
	assert.Equal(t, "B1", free[0])
	assert.Equal(t, "B12", free[len(free)-1])
	assert.Len(t, free, 11)
}

func TestSortBedLabels(t *testing.T) {
	labels := []string{"B10", "B2", "B1"}
	SortBedLabels(labels)
	assert.Equal(t, []string{"B1", "B2", "B10"}, labels)
}

func TestDeriveStatus(t *testing.T) {
	assert.Equal(t, RoomAvailable, DeriveStatus(nil, 0, 2))
	// 有空床即 available，部分入住不例外
	assert.Equal(t, RoomAvailable, DeriveStatus(nil, 1, 2))
	assert.Equal(t, RoomOccupied, DeriveStatus(nil, 2, 2))

	m := RoomMaintenance
	assert.Equal(t, RoomMaintenance, DeriveStatus(&m, 0, 2), "manual override wins")
	rs := RoomReserved
	assert.Equal(t, RoomReserved, DeriveStatus(&rs, 2, 2))

	empty := ""
	assert.Equal(t, RoomAvailable, DeriveStatus(&empty, 0, 2), "cleared override falls back to derivation")
}
