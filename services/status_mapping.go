package services

import "github.com/Dosada05/prediction-league/models"

// externalStatusTable maps provider status codes to internal match statuses.
// The table is exhaustive over the codes the provider documents; anything
// else is reported as unknown and leaves the stored status untouched, since
// a terminal state must never be guessed from an unrecognized code.
var externalStatusTable = map[string]models.MatchStatus{
	// not started / postponed / to be defined
	"NS":  models.MatchStatusUpcoming,
	"TBD": models.MatchStatusUpcoming,
	"PST": models.MatchStatusUpcoming,

	// in progress: halves, break, extra time, penalty shootout in play
	"1H":   models.MatchStatusLive,
	"HT":   models.MatchStatusLive,
	"2H":   models.MatchStatusLive,
	"ET":   models.MatchStatusLive,
	"BT":   models.MatchStatusLive,
	"P":    models.MatchStatusLive,
	"LIVE": models.MatchStatusLive,

	// terminal: full time, after extra time, decided on penalties
	"FT":  models.MatchStatusFinished,
	"AET": models.MatchStatusFinished,
	"PEN": models.MatchStatusFinished,

	// cancelled, abandoned, awarded, walkover, suspended, interrupted
	"CANC": models.MatchStatusCancelled,
	"ABD":  models.MatchStatusCancelled,
	"AWD":  models.MatchStatusCancelled,
	"WO":   models.MatchStatusCancelled,
	"SUSP": models.MatchStatusCancelled,
	"INT":  models.MatchStatusCancelled,
}

// mapExternalStatus resolves a provider status code. ok is false for
// unrecognized codes.
func mapExternalStatus(code string) (status models.MatchStatus, ok bool) {
	status, ok = externalStatusTable[code]
	return status, ok
}
