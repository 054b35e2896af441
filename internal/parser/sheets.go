package parser

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/domain"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsImporter reads a card list out of a Google Sheets spreadsheet with the
// columns Amount | Card Name | Set Code | Collector Number | Finish. It applies
// the same defaults as the text grammar: missing printing columns act as
// wildcards and an unrecognized finish falls back to normal.
type SheetsImporter struct {
	service *sheets.Service
}

type SheetsConfig struct {
	CredentialsJSON []byte
}

func NewSheetsImporter(cfg SheetsConfig) (*SheetsImporter, error) {
	ctx := context.Background()

	service, err := sheets.NewService(ctx, option.WithCredentialsJSON(cfg.CredentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &SheetsImporter{
		service: service,
	}, nil
}

func (p *SheetsImporter) ImportCardList(ctx context.Context, spreadsheetID string) ([]domain.CardRequestSpec, error) {
	readRange := "A:E" // Amount, Card Name, Set Code, Collector Number, Finish
	resp, err := p.service.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet: %w", err)
	}

	if len(resp.Values) == 0 {
		return nil, fmt.Errorf("no data found in spreadsheet")
	}

	var specs []domain.CardRequestSpec

	// skip header
	for i := 1; i < len(resp.Values); i++ {
		row := resp.Values[i]
		if len(row) < 2 {
			continue
		}

		amount, err := strconv.Atoi(strings.TrimSpace(fmt.Sprintf("%v", row[0])))
		if err != nil || amount <= 0 {
			continue
		}

		name := strings.TrimSpace(fmt.Sprintf("%v", row[1]))
		if name == "" {
			continue
		}

		spec := domain.CardRequestSpec{
			Amount:   amount,
			CardName: name,
			Finish:   domain.FinishNormal,
		}

		if len(row) > 2 {
			spec.SetCode = strings.TrimSpace(fmt.Sprintf("%v", row[2]))
		}
		if len(row) > 3 {
			spec.CollectorID = strings.TrimSpace(fmt.Sprintf("%v", row[3]))
		}
		if len(row) > 4 {
			if finish, ok := finishCodes[strings.TrimSpace(fmt.Sprintf("%v", row[4]))]; ok {
				spec.Finish = finish
			}
		}

		specs = append(specs, spec)
	}

	return specs, nil
}
