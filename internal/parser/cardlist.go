package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/domain"
	"go.uber.org/zap"
)

// linePattern matches one card-list line:
//
//	<amount> <card name> [(<set code>)] [<collector id>] [<finish>]
//
// The card name is non-greedy, so the collector id must start with a digit
// and the finish alternatives are closed: otherwise those groups would claim
// the last word of a bare multi-word name ("1 Black Lotus" must keep the
// whole name). A zero or negative amount is a grammar mismatch, not an
// amount of zero.
var linePattern = regexp.MustCompile(`^([1-9]\d*)\s+(.+?)(?:\s+\((\w+)\))?(?:\s+(\d[\w-]*))?(?:\s+(F|E|N/A))?$`)

var finishCodes = map[string]domain.Finish{
	"F":   domain.FinishFoil,
	"E":   domain.FinishEtched,
	"N/A": domain.FinishAny,
}

// ParseCardList turns raw multi-line text into an ordered list of card request
// specs. Parsing is best-effort: a line that does not match the grammar is
// logged and skipped, and never aborts the rest of the input. Output preserves
// input order and keeps duplicate card names.
func ParseCardList(raw string, logger *zap.SugaredLogger) []domain.CardRequestSpec {
	var specs []domain.CardRequestSpec

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		match := linePattern.FindStringSubmatch(line)
		if match == nil {
			logger.Warnw("invalid card format, skipping line", "line", line)
			continue
		}

		amount, err := strconv.Atoi(match[1])
		if err != nil {
			logger.Warnw("invalid card amount, skipping line", "line", line)
			continue
		}

		finish, ok := finishCodes[match[5]]
		if !ok {
			finish = domain.FinishNormal
		}

		specs = append(specs, domain.CardRequestSpec{
			Amount:      amount,
			CardName:    match[2],
			SetCode:     match[3],
			CollectorID: match[4],
			Finish:      finish,
		})
	}

	return specs
}
