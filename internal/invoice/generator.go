// Package invoice turns an order into its human-readable document.
package invoice

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/Kobayashi19860206/NodeShop/internal/domain"
	"github.com/Kobayashi19860206/NodeShop/internal/metrics"
	"github.com/Kobayashi19860206/NodeShop/pkg/logger"
)

type Generator struct {
	artifacts ArtifactStore
}

func NewGenerator(artifacts ArtifactStore) *Generator {
	return &Generator{artifacts: artifacts}
}

// Render writes the invoice document for one order. Pure: same order,
// same bytes.
func Render(o *domain.Order, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Invoice #%s\n", o.ID); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "--------------------------"); err != nil {
		return err
	}
	for _, line := range o.Lines {
		if _, err := fmt.Fprintf(w, "%s – %d x %s\n", line.Title, line.Quantity, line.Price.StringFixed(2)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, "---"); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Total: %s\n", o.Total().StringFixed(2))
	return err
}

// Generate renders the invoice once, then serves two consumers: the
// caller's stream and the durable artifact copy. The artifact write
// runs on its own context, so a caller that disconnects mid-stream
// doesn't abort it, and an artifact failure is logged and counted but
// never surfaces to the caller.
func (g *Generator) Generate(ctx context.Context, o *domain.Order, w io.Writer) error {
	var buf bytes.Buffer
	if err := Render(o, &buf); err != nil {
		return fmt.Errorf("render invoice: %w", err)
	}
	data := buf.Bytes()

	done := make(chan struct{})
	go func() {
		defer close(done)
		artifactCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := g.artifacts.Put(artifactCtx, ArtifactKey(o.ID), data); err != nil {
			metrics.InvoiceArtifactFailures.Inc()
			logger.Log.Error("invoice artifact write failed",
				zap.String("order_id", o.ID.String()),
				zap.Error(err))
		}
	}()

	var streamErr error
	if err := ctx.Err(); err != nil {
		streamErr = err
	} else if _, err := w.Write(data); err != nil {
		streamErr = fmt.Errorf("stream invoice: %w", err)
	}

	<-done
	return streamErr
}
