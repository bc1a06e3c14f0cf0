package transit

// SlackTable carries the per-mode boarding/alighting padding and the
// single shared transfer slack, addressed by a pattern's Mode.
type SlackTable struct {
	boardSec    [4]int32
	alightSec   [4]int32
	transferSec int32
}

// DefaultSlackTable returns the engine's default slack configuration:
// board {60,30,120,180}, alight {30,10,60,120} seconds indexed
// {subway,bus,rail,other}, and a shared 60s transfer slack.
func DefaultSlackTable() SlackTable {
	return SlackTable{
		boardSec:    [4]int32{60, 30, 120, 180},
		alightSec:   [4]int32{30, 10, 60, 120},
		transferSec: 60,
	}
}

// Board returns the boarding slack, in seconds, for the given mode.
func (s SlackTable) Board(m Mode) int32 { return s.boardSec[m] }

// Alight returns the alighting slack, in seconds, for the given mode.
func (s SlackTable) Alight(m Mode) int32 { return s.alightSec[m] }

// Transfer returns the shared transfer slack, in seconds.
func (s SlackTable) Transfer() int32 { return s.transferSec }

// ModeForRouteType maps a GTFS route_type (including the extended
// 1xx-11xx codes) to a slack-table row.
func ModeForRouteType(routeType int) Mode {
	switch {
	case routeType == 0, routeType == 1, routeType == 2, routeType == 5, routeType == 6:
		return ModeSubway
	case routeType == 3:
		return ModeBus
	case routeType == 4, routeType == 7:
		return ModeRail
	case routeType >= 100 && routeType <= 199:
		return ModeRail
	case routeType >= 200 && routeType <= 299:
		return ModeRail
	case routeType >= 400 && routeType <= 499:
		return ModeSubway
	case routeType >= 700 && routeType <= 799:
		return ModeBus
	case routeType >= 900 && routeType <= 999:
		return ModeSubway
	case routeType >= 1100 && routeType <= 1199:
		return ModeOther
	default:
		return ModeBus
	}
}
