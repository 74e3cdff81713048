package commands

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"

	"pesertagen/internal/models"
)

// promptChooser asks the operator through terminal prompts.
type promptChooser struct {
	maxHeight int
}

func newPromptChooser() *promptChooser {
	return &promptChooser{maxHeight: 15}
}

func (p *promptChooser) ChooseInstitution(ctx context.Context, options []models.Institution) (models.Institution, error) {
	if err := ctx.Err(); err != nil {
		return models.Institution{}, err
	}

	labels := make([]string, 0, len(options))
	byLabel := make(map[string]models.Institution, len(options))

	for _, inst := range options {
		label := inst.Label()
		if _, dup := byLabel[label]; dup {
			continue
		}

		byLabel[label] = inst
		labels = append(labels, label)
	}

	choice, err := pterm.DefaultInteractiveSelect.
		WithOptions(labels).
		WithMaxHeight(p.maxHeight).
		Show("Pilih instansi")
	if err != nil {
		return models.Institution{}, errors.Wrap(err, "institution prompt failed")
	}

	return byLabel[choice], nil
}

func (p *promptChooser) ChooseColumn(ctx context.Context, field models.Field, headers []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	choice, err := pterm.DefaultInteractiveSelect.
		WithOptions(headers).
		WithMaxHeight(p.maxHeight).
		Show(fmt.Sprintf("Kolom untuk %s", field))
	if err != nil {
		return "", errors.Wrapf(err, "column prompt for %s failed", field)
	}

	return choice, nil
}

func (p *promptChooser) ConfirmDegenerate(ctx context.Context, rows int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	ok, err := pterm.DefaultInteractiveConfirm.
		WithDefaultValue(false).
		Show(fmt.Sprintf("%d baris tanpa JENIS_TES. Ekspor sebagai satu file?", rows))
	if err != nil {
		return false, errors.Wrap(err, "confirmation prompt failed")
	}

	return ok, nil
}
