package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/therealutkarshpriyadarshi/videosdb/internal/queue"
)

func newDLQCmd(opts *options) *cobra.Command {
	dlqCmd := &cobra.Command{
		Use:   "dlq",
		Short: "Inspect and replay dead-lettered batch runs",
	}

	depthCmd := &cobra.Command{
		Use:   "depth",
		Short: "Print the number of queued and dead-lettered batch runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := queue.New(opts.cfg.Queue)
			if err != nil {
				return err
			}
			defer q.Close()

			depth, err := q.GetQueueDepth()
			if err != nil {
				return err
			}
			dlq, err := q.GetDLQDepth()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n%s: %d\n", queue.BatchQueueName, depth, queue.DeadLetterQueueName, dlq)
			return nil
		},
	}

	var maxReplay int
	replayCmd := &cobra.Command{
		Use:   "replay",
		Short: "Move dead-lettered batch runs back onto the batch queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			if maxReplay <= 0 {
				return fmt.Errorf("--max must be positive")
			}

			q, err := queue.New(opts.cfg.Queue)
			if err != nil {
				return err
			}
			defer q.Close()

			replayed, err := q.ReplayDeadLetters(cmd.Context(), maxReplay)
			fmt.Fprintf(cmd.OutOrStdout(), "replayed %d batch runs\n", replayed)
			return err
		},
	}
	replayCmd.Flags().IntVar(&maxReplay, "max", 100, "maximum number of dead letters to replay")

	dlqCmd.AddCommand(depthCmd, replayCmd)
	return dlqCmd
}
