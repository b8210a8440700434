package game_constants

// Grid
const SquareCount = 10
const MaxSquaresPerUser = 2

// Game status values
const (
	STATUS_PENDING   = "pending"
	STATUS_ACTIVE    = "active"
	STATUS_COMPLETED = "completed"
)

// Scoring checkpoints, in play order
var Quarters = []string{"Q1", "Q2", "Q3", "Q4"}

// Percentage of the pot paid for each quarter. Must add up to 100 at most.
var PayoutPercent = map[string]int64{
	"Q1": 20,
	"Q2": 20,
	"Q3": 20,
	"Q4": 40,
}

// NOTE: the pot is EntryFee * SquareCount, whether or not every square was sold
const DEFAULT_STARTING_BALANCE = "1000"

// Games returned by a single list call
const MAX_LISTED_GAMES = 100
