package sink

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"
)

// Sheets appends rows to a fixed Google spreadsheet using a service-account
// credential. The destination schema is the narrow summary form: one header
// plus (Date, Activity, Results) rows. If the sheet is empty the header is
// written before the first data row.
type Sheets struct {
	mu            sync.Mutex
	service       *sheets.Service
	spreadsheetID string
	header        Row
	headerKnown   bool
}

// NewSheets authenticates once with the provided service-account JSON blob
// and binds the sink to a spreadsheet id.
func NewSheets(ctx context.Context, credentialsJSON []byte, spreadsheetID string, header Row) (*Sheets, error) {
	if len(credentialsJSON) == 0 {
		return nil, fmt.Errorf("%w: empty credential", ErrAuth)
	}
	if spreadsheetID == "" {
		return nil, fmt.Errorf("%w: missing spreadsheet id", ErrAuth)
	}

	service, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuth, err)
	}

	return &Sheets{
		service:       service,
		spreadsheetID: spreadsheetID,
		header:        header,
	}, nil
}

// Append writes one row to the first sheet of the spreadsheet.
func (sink *Sheets) Append(ctx context.Context, row Row) error {
	sink.mu.Lock()
	defer sink.mu.Unlock()

	if !sink.headerKnown {
		resp, err := sink.service.Spreadsheets.Values.
			Get(sink.spreadsheetID, "A1:A1").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("%w: read header cell: %v", ErrWrite, err)
		}
		if len(resp.Values) == 0 && len(sink.header) > 0 {
			if err := sink.appendLocked(ctx, sink.header); err != nil {
				return err
			}
		}
		sink.headerKnown = true
	}

	return sink.appendLocked(ctx, row)
}

func (sink *Sheets) appendLocked(ctx context.Context, row Row) error {
	values := make([]interface{}, len(row))
	for i, column := range row {
		values[i] = column
	}

	_, err := sink.service.Spreadsheets.Values.
		Append(sink.spreadsheetID, "A1", &sheets.ValueRange{
			Values: [][]interface{}{values},
		}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("%w: append row: %v", ErrWrite, err)
	}
	return nil
}
