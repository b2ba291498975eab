package main

import (
	"context"
	"fmt"
	"os"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/samber/do"
	"github.com/serroba/shortlink-client/internal/console"
	"github.com/serroba/shortlink-client/internal/container"
	"github.com/serroba/shortlink-client/internal/shortlink"
	"github.com/serroba/shortlink-client/internal/transport"
	"github.com/serroba/shortlink-client/internal/validation"
	"github.com/spf13/cobra"
)

// oneShot runs fn against a fresh client and exits non-zero when it fails.
func oneShot(fn func(ctx context.Context, client *transport.Client, r *console.Renderer, args []string) error) func(*cobra.Command, []string) {
	return humacli.WithOptions(func(cmd *cobra.Command, args []string, options *container.ClientOptions) {
		injector := newInjector(options)
		defer func() { _ = injector.Shutdown() }()

		client := do.MustInvoke[*transport.Client](injector)
		renderer := do.MustInvoke[*console.Renderer](injector)

		if err := fn(cmd.Context(), client, renderer, args); err != nil {
			renderer.Error(err.Error())
			_ = injector.Shutdown()

			os.Exit(1)
		}
	})
}

func addCommands(cli humacli.CLI) {
	var slug string

	create := &cobra.Command{
		Use:   "create <url>",
		Short: "Create a short link",
		Args:  cobra.ExactArgs(1),
		Run: oneShot(func(ctx context.Context, client *transport.Client, r *console.Renderer, args []string) error {
			if err := shortlink.ValidateURL(args[0]); err != nil {
				return err
			}

			req := shortlink.CreateLinkRequest{OriginalURL: args[0]}
			if candidate := shortlink.NormalizeCandidate(slug); shortlink.LongEnough(candidate) {
				req.CustomSlug = candidate
			}

			link, err := client.CreateLink(ctx, req)
			if err != nil {
				return err
			}

			r.Println(link.ShortURL)

			return nil
		}),
	}
	create.Flags().StringVar(&slug, "slug", "", "Custom slug")

	list := &cobra.Command{
		Use:   "list",
		Short: "List short links, newest first",
		Args:  cobra.NoArgs,
		Run: oneShot(func(ctx context.Context, client *transport.Client, r *console.Renderer, _ []string) error {
			links, err := client.ListLinks(ctx)
			if err != nil {
				return err
			}

			r.Links(links)

			return nil
		}),
	}

	check := &cobra.Command{
		Use:   "check <slug>",
		Short: "Check whether a custom slug is available",
		Args:  cobra.ExactArgs(1),
		Run: oneShot(func(ctx context.Context, client *transport.Client, r *console.Renderer, args []string) error {
			candidate := shortlink.NormalizeCandidate(args[0])
			if !shortlink.LongEnough(candidate) {
				return fmt.Errorf("slug must be at least %d characters", shortlink.MinSlugLength)
			}

			availability, err := client.CheckAvailability(ctx, candidate)
			if err != nil {
				return err
			}

			if availability.Valid {
				r.Validation(validation.Valid{})
			} else {
				r.Validation(validation.Invalid{Reason: availability.Reason, Suggestions: availability.Suggestions})
			}

			return nil
		}),
	}

	cli.Root().AddCommand(create, list, check)
}
