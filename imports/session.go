package imports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"labinventory/models"
)

// BuildFunc assembles the records of one import. It runs inside the store's
// write transaction with a transaction-scoped resolver.
type BuildFunc func(ctx context.Context, r EntityResolver) ([]*models.InventoryItem, error)

// ImportStore persists one import batch atomically: either every record built
// by build lands, or none do.
type ImportStore interface {
	BulkImport(ctx context.Context, userID int64, sheetCount int, build BuildFunc) (int, error)
}

// Session owns the lifecycle of one upload. It is driven by a single
// connection read loop, so methods are never called concurrently; messages
// are handled strictly in arrival order.
type Session struct {
	ID     string
	UserID int64

	store ImportStore
	files *FileStore
	log   *slog.Logger

	stage      Stage
	candidates []CandidateSheet
	filePath   string
}

func NewSession(id string, userID int64, store ImportStore, files *FileStore, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		ID:     id,
		UserID: userID,
		store:  store,
		files:  files,
		log:    log.With(slog.String("import_session", id)),
		stage:  StageAwaitingFile,
	}
}

// Stage reports the session's current lifecycle stage.
func (s *Session) Stage() Stage {
	return s.stage
}

// HandleBinary processes the uploaded workbook bytes. The returned messages
// are sent to the client in order; a non-nil error means the upload did not
// complete. ErrNoValidSheets is the one recoverable error: the session stays
// in AwaitingFile and the caller should keep the connection open for a retry.
func (s *Session) HandleBinary(ctx context.Context, data []byte) ([]ServerMessage, error) {
	if s.stage != StageAwaitingFile {
		return s.fail(fmt.Errorf("binary payload in stage %s: %w", s.stage, ErrBadStage))
	}

	path, err := s.files.Save(s.ID, data)
	if err != nil {
		return s.fail(fmt.Errorf("persist upload: %w", err))
	}
	s.filePath = path

	f, err := excelize.OpenFile(path)
	if err != nil {
		return s.fail(fmt.Errorf("open workbook: %w", err))
	}
	defer f.Close()

	candidates, err := Detect(f)
	if err != nil {
		return s.fail(fmt.Errorf("detect sheets: %w", err))
	}

	switch len(candidates) {
	case 0:
		s.discardFile()
		s.log.Info("no importable sheets in upload")
		return []ServerMessage{{Error: MsgNoValidSheets}}, ErrNoValidSheets
	case 1:
		s.candidates = candidates
		inserted, err := s.process(ctx, f, candidates)
		if err != nil {
			return s.fail(err)
		}
		s.log.Info("import complete", slog.Int("records", inserted))
		return []ServerMessage{{Stage: wireStageProcessing}, {Stage: wireStageDone}}, nil
	default:
		s.candidates = candidates
		s.stage = StageAwaitingSheetSelection
		return []ServerMessage{{Stage: wireStageSelectSheets, ValidSheets: candidates}}, nil
	}
}

// HandleText processes a JSON control frame: the client's sheet selection.
func (s *Session) HandleText(ctx context.Context, data []byte) ([]ServerMessage, error) {
	if s.stage != StageAwaitingSheetSelection {
		return s.fail(fmt.Errorf("control message in stage %s: %w", s.stage, ErrBadStage))
	}

	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return s.fail(fmt.Errorf("decode selection: %w", err))
	}
	if msg.Stage != wireStageProcessing || len(msg.SelectedSheets) == 0 {
		return s.fail(fmt.Errorf("selection message malformed: %w", ErrBadStage))
	}

	// The client echoes candidates back; trust only the server-side copy.
	selected := make([]CandidateSheet, 0, len(msg.SelectedSheets))
	for _, sel := range msg.SelectedSheets {
		cand, ok := s.candidateByName(sel.SheetName)
		if !ok {
			return s.fail(fmt.Errorf("sheet %q: %w", sel.SheetName, ErrSheetNotFound))
		}
		selected = append(selected, cand)
	}

	f, err := excelize.OpenFile(s.filePath)
	if err != nil {
		return s.fail(fmt.Errorf("reopen workbook: %w", err))
	}
	defer f.Close()

	inserted, err := s.process(ctx, f, selected)
	if err != nil {
		return s.fail(err)
	}
	s.log.Info("import complete", slog.Int("records", inserted), slog.Int("sheets", len(selected)))
	return []ServerMessage{{Stage: wireStageDone}}, nil
}

// process maps every data row of the selected candidates and persists the
// whole batch in one transaction.
func (s *Session) process(ctx context.Context, f *excelize.File, selected []CandidateSheet) (int, error) {
	s.stage = StageProcessing

	inserted, err := s.store.BulkImport(ctx, s.UserID, len(selected), func(ctx context.Context, r EntityResolver) ([]*models.InventoryItem, error) {
		var items []*models.InventoryItem
		for _, cand := range selected {
			rows, err := SliceRows(f, cand)
			if err != nil {
				return nil, err
			}
			for _, row := range rows {
				it, err := MapRow(ctx, row, r)
				if err != nil {
					return nil, fmt.Errorf("sheet %q: %w", cand.SheetName, err)
				}
				items = append(items, it)
			}
		}
		return items, nil
	})
	if err != nil {
		return 0, err
	}
	s.stage = StageDone
	return inserted, nil
}

// Teardown discards session state and the temp workbook. Safe to call more
// than once; runs on every connection close, clean or not.
func (s *Session) Teardown() {
	s.discardFile()
	s.candidates = nil
}

func (s *Session) discardFile() {
	if s.filePath == "" {
		return
	}
	if err := s.files.Remove(s.ID); err != nil {
		// Session is already over; nothing to surface to the client.
		s.log.Error("temp workbook cleanup failed", slog.Any("err", err))
	}
	s.filePath = ""
}

func (s *Session) candidateByName(name string) (CandidateSheet, bool) {
	for _, cand := range s.candidates {
		if cand.SheetName == name {
			return cand, true
		}
	}
	return CandidateSheet{}, false
}

func (s *Session) fail(err error) ([]ServerMessage, error) {
	s.stage = StageFailed
	msg := "Import failed"
	if errors.Is(err, ErrSheetNotFound) {
		msg = "Selected sheet not found in uploaded file"
	}
	s.log.Error("import session failed", slog.Any("err", err))
	return []ServerMessage{{Error: msg}}, err
}
