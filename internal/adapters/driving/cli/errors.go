package cli

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
)

// userError rewrites service errors into messages with a next step.
func userError(err error) error {
	var verrs domain.ValidationErrors
	switch {
	case err == nil:
		return nil
	case errors.As(err, &verrs):
		return err
	case errors.Is(err, domain.ErrNotFound):
		return errors.New("paper not found")
	case errors.Is(err, domain.ErrQueryTimeout):
		return fmt.Errorf("%w\nhint: retry, or switch relay with --relay wss://...", err)
	case errors.Is(err, domain.ErrQueryFailed), errors.Is(err, domain.ErrNoRelays):
		return fmt.Errorf("%w\nhint: check your connection, or switch relay with --relay wss://...", err)
	case errors.Is(err, domain.ErrPublishFailed):
		return fmt.Errorf("%w\nhint: nothing was retried; run the command again to resend", err)
	case errors.Is(err, domain.ErrSignerUnavailable):
		return fmt.Errorf("%w\nhint: run 'scholarstr settings set-key'", err)
	default:
		return err
	}
}
