package main

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/welldanyogia/stitchdesk-backend/internal/database"
	"github.com/welldanyogia/stitchdesk-backend/internal/payment"
	"github.com/welldanyogia/stitchdesk-backend/internal/repository"
	"github.com/welldanyogia/stitchdesk-backend/internal/services"
	"github.com/welldanyogia/stitchdesk-backend/internal/validator"
)

func newPaymentLinkCmd() *cobra.Command {
	var orderID string

	cmd := &cobra.Command{
		Use:   "payment-link",
		Short: "Sign a checkout link for an order",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := validator.ParseID(orderID)
			if err != nil {
				return err
			}

			cfg, db, err := openDatabase()
			if err != nil {
				return err
			}
			defer database.Close(db)

			if cfg.PaymentMerchantCode == "" || cfg.PaymentSecretKey == "" {
				return fmt.Errorf("PAYMENT_MERCHANT_CODE and PAYMENT_SECRET_KEY must be set")
			}
			algo, err := payment.ParseAlgorithm(cfg.PaymentHashAlgo)
			if err != nil {
				return err
			}
			signer, err := payment.NewSigner(cfg.PaymentMerchantCode, []byte(cfg.PaymentSecretKey), cfg.PaymentCheckoutURL, algo)
			if err != nil {
				return err
			}

			order, err := repository.NewOrderRepository(db).GetByID(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("load order %s: %w", id, err)
			}

			link, err := signer.Sign(services.LinkRequestFor(order, services.PaymentServiceConfig{
				ReturnURL: cfg.PaymentReturnURL,
				CancelURL: cfg.PaymentCancelURL,
			}))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), link)
			return nil
		},
	}

	cmd.Flags().StringVar(&orderID, "order", "", "order id")
	_ = cmd.MarkFlagRequired("order")
	return cmd
}

func newVerifyWebhookCmd() *cobra.Command {
	var secret, algoName, file string

	cmd := &cobra.Command{
		Use:   "verify-webhook",
		Short: "Check the HASH of a captured payment notification",
		Long: `Read a form-encoded payment notification from --file (or stdin) and
check its HASH field against the shared secret. Exits non-zero when the hash
does not match.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret = envOr(secret, "PAYMENT_SECRET_KEY")
			if err := requireFlag("secret", secret); err != nil {
				return err
			}
			algo, err := payment.ParseAlgorithm(envOr(algoName, "PAYMENT_HASH_ALGORITHM"))
			if err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if file != "" && file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			raw, err := io.ReadAll(in)
			if err != nil {
				return err
			}
			form, err := url.ParseQuery(strings.TrimSpace(string(raw)))
			if err != nil {
				return fmt.Errorf("payload is not form encoded: %w", err)
			}

			out := cmd.OutOrStdout()
			verifier := payment.NewVerifier([]byte(secret), algo)
			if !verifier.Verify(form) {
				fmt.Fprintln(out, "signature: invalid")
				return fmt.Errorf("hash mismatch for %s=%q", payment.FieldExternalRef, form.Get(payment.FieldExternalRef))
			}

			n, err := payment.ParseNotification(form)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "signature: valid")
			fmt.Fprintf(out, "reference: %s\n", n.ExternalRef)
			fmt.Fprintf(out, "status:    %s (%s)\n", n.Status, n.Outcome)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "shared secret (default $PAYMENT_SECRET_KEY)")
	cmd.Flags().StringVar(&algoName, "algo", "", "hash algorithm: sha256, md5 or sha3-256 (default $PAYMENT_HASH_ALGORITHM or sha256)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "payload file; stdin when empty")
	return cmd
}
