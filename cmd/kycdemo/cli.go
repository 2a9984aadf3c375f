package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"kycdid/internal/identity/credential"
	"kycdid/internal/identity/keys"
	"kycdid/internal/identity/proof"
	"kycdid/internal/kyc/demo"
	"kycdid/internal/kyc/models"
	"kycdid/internal/kyc/service"
	"kycdid/internal/kyc/verifier"
	"kycdid/internal/ledger"
	"kycdid/internal/ledger/simulated"
	"kycdid/internal/platform/logger"
)

const demoIssuer = "did:web:kycdid.dev"

type runOptions struct {
	bindFreshness bool
	namespace     string
	verbose       bool
	rejectKinds   []string
}

// Output is what kycdemo prints.
type Output struct {
	Result service.Result            `json:"result"`
	Proofs map[string]proof.Response `json:"proofs"`
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "kycdemo",
		Short:        "Run the KYC to DID workflow on demo data",
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd())
	return root
}

func newRunCmd() *cobra.Command {
	opts := runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Verify the demo applicant, publish the DID and print every proof",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.bindFreshness, "bind-freshness", true, "bind the derived keypair to the completion time")
	cmd.Flags().StringVar(&opts.namespace, "namespace", "ethr", "DID method namespace")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log workflow progress to stderr")
	cmd.Flags().StringSliceVar(&opts.rejectKinds, "reject-document", nil, "document kinds the simulated verifier rejects, e.g. drivers_license")
	return cmd
}

func runDemo(cmd *cobra.Command, opts runOptions) error {
	ctx := cmd.Context()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if opts.verbose {
		log = logger.NewWithWriter(cmd.ErrOrStderr(), "development")
	}

	l := simulated.New()
	if err := l.Connect(ctx); err != nil {
		return err
	}
	defer l.Disconnect(ctx) //nolint:errcheck

	publisher := ledger.NewPublisher(l, ledger.Config{
		PollMin: 10 * time.Millisecond,
		PollMax: 100 * time.Millisecond,
	}, ledger.WithLogger(log))
	rejected := make([]models.DocumentKind, len(opts.rejectKinds))
	for i, k := range opts.rejectKinds {
		rejected[i] = models.DocumentKind(k)
	}
	svc := service.New(
		verifier.NewSimulated(verifier.WithDelay(0), verifier.WithRejectedKinds(rejected...)),
		keys.NewDeriver(keys.WithNamespace(opts.namespace), keys.WithFreshness(opts.bindFreshness)),
		credential.NewIssuer(demoIssuer),
		publisher,
		service.WithLogger(log),
	)

	res, err := svc.Run(ctx, demo.Application())
	if err != nil {
		return err
	}
	out := Output{Result: res, Proofs: make(map[string]proof.Response, len(proof.Kinds))}
	for _, kind := range proof.Kinds {
		resp, err := svc.Respond(ctx, res.SessionID.String(), res.DID, res.Subject, kind)
		if err != nil {
			return err
		}
		out.Proofs[string(kind)] = resp
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
