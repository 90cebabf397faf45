// Package lambda runs a scheduled regeneration: generate the content tree and
// summary, then upload the summary to S3.
package lambda

import (
	"context"
	"fmt"

	"github.com/stahnma/gh-trends/internal/commands"
)

// NewHandler returns a Lambda handler function that regenerates the site
// data and publishes the summary.
func NewHandler(app *commands.App) func(context.Context, interface{}) (string, error) {
	return func(ctx context.Context, event interface{}) (string, error) {
		if _, _, err := app.Config.PublishTarget(); err != nil {
			return "", fmt.Errorf("S3_BUCKET_NAME and S3_OBJECT_KEY environment variables must be set: %w", err)
		}

		res, err := app.Generate(ctx)
		if err != nil {
			return "", fmt.Errorf("generate: %w", err)
		}
		if res.Summary == nil {
			return "No analysis data found, nothing uploaded", nil
		}

		uri, err := app.Publish(ctx)
		if err != nil {
			return "", fmt.Errorf("publish: %w", err)
		}
		if err := app.SaveCache(); err != nil {
			return "", fmt.Errorf("saving cache: %w", err)
		}

		return fmt.Sprintf("Generated %d pages for %d dates and uploaded %s", res.Pages, len(res.Dates), uri), nil
	}
}
