package imports

import "errors"

// Session stages for one upload, in the order a client walks through them.
type Stage int

const (
	StageAwaitingFile Stage = iota
	StageAwaitingSheetSelection
	StageProcessing
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageAwaitingFile:
		return "awaiting_file"
	case StageAwaitingSheetSelection:
		return "awaiting_sheet_selection"
	case StageProcessing:
		return "processing"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	}
	return "unknown"
}

// Wire stage numbers shared with the browser client.
const (
	wireStageSelectSheets = 2
	wireStageProcessing   = 3
	wireStageDone         = 4
)

// CandidateSheet describes one worksheet recognized as holding an item table.
// Offsets are zero-based indexes into the sheet rendered as a row grid.
type CandidateSheet struct {
	SheetName    string `json:"sheetName"`
	SheetIndex   int    `json:"sheetIndex"`
	HeaderRow    int    `json:"headerRow"`
	HeaderColumn int    `json:"headerColumn"`
	DataRow      int    `json:"dataRow"`
}

// ServerMessage is one outbound frame on the import stream.
type ServerMessage struct {
	Stage       int              `json:"stage,omitempty"`
	ValidSheets []CandidateSheet `json:"validSheets,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// ClientMessage is an inbound JSON control frame (the sheet selection).
type ClientMessage struct {
	Stage          int              `json:"stage"`
	SelectedSheets []CandidateSheet `json:"selectedSheets"`
}

// MsgNoValidSheets is the one recoverable failure: the client may retry
// with a different file on the same connection.
const MsgNoValidSheets = "No valid sheets found"

var (
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token expired")
	// ErrNoValidSheets is recoverable: the read loop keeps the connection
	// open so the client can retry with a different file.
	ErrNoValidSheets = errors.New("no valid sheets found")
	ErrSheetNotFound = errors.New("selected sheet not found")
	ErrBadStage      = errors.New("message not valid in current stage")
)
