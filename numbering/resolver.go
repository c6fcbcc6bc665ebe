// Package numbering derives the next invoice and quotation numbers from the
// documents already stored on the drive.
package numbering

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"invoicepro/models"
)

// Lister returns the names of non-trashed files in a folder that start with
// prefix.
type Lister interface {
	ListNames(ctx context.Context, folder, prefix string) ([]string, error)
}

var sequencePatterns = map[models.Kind]*regexp.Regexp{
	models.Invoice:   regexp.MustCompile(`^INV_\d{8}_(\d+)`),
	models.Quotation: regexp.MustCompile(`^QUO_\d{8}_(\d+)`),
}

// MaxSequence returns the largest sequence among export file names of the
// kind, or 0 when none match.
func MaxSequence(kind models.Kind, names []string) int {
	re := sequencePatterns[kind]
	max := 0
	for _, name := range names {
		m := re.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err == nil && n > max {
			max = n
		}
	}
	return max
}

// NextNumber lists the kind's folder and returns one past the highest
// stored sequence, or 1 for an empty history.
func NextNumber(ctx context.Context, l Lister, kind models.Kind) (int, error) {
	names, err := l.ListNames(ctx, kind.Folder(), kind.Prefix()+"_")
	if err != nil {
		return 0, fmt.Errorf("next %s number: %w", kind, err)
	}
	return MaxSequence(kind, names) + 1, nil
}
