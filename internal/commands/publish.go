package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stahnma/gh-trends/internal/publish"
	"github.com/stahnma/gh-trends/internal/trends"
)

func (a *App) newPublishCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "publish",
		Short: "Upload the trends summary to S3",
		RunE: func(cmd *cobra.Command, args []string) error {
			uri, err := a.Publish(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s\n", uri)
			return nil
		},
	}
}

// Publish uploads the summary file and returns the s3:// URI it was written
// to. A %s in the object key is replaced by the summary's latest date.
func (a *App) Publish(ctx context.Context) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	bucket, keyPattern, err := a.Config.PublishTarget()
	if err != nil {
		return "", err
	}
	s, err := trends.ReadSummary(a.Config.SummaryPath)
	if err != nil {
		return "", fmt.Errorf("reading summary: %w", err)
	}
	if err := a.ensureS3Client(ctx); err != nil {
		return "", err
	}

	key := publish.ObjectKey(keyPattern, s.LatestDate)
	p := publish.New(a.S3Client, bucket, a.logger())
	if err := p.UploadFile(ctx, a.Config.SummaryPath, key); err != nil {
		return "", err
	}
	return fmt.Sprintf("s3://%s/%s", bucket, key), nil
}
