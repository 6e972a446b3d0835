package engine_test

import (
	"bytes"
	"context"
	"log/slog"

	ginkgo "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/luxfi/payment-engine/internal/engine"
	"github.com/luxfi/payment-engine/internal/metrics"
	"github.com/luxfi/payment-engine/internal/xlog"
)

func runScenario(path string, batchSize int) string {
	logger := xlog.New("engine-test", slog.LevelError)
	rec := metrics.NewRecorder()
	cfg := engine.Config{BatchSize: batchSize, MaxConcurrentClients: 8}

	var out bytes.Buffer
	err := engine.Run(context.Background(), path, &out, cfg, logger, rec)
	Expect(err).NotTo(HaveOccurred())
	return out.String()
}

var _ = ginkgo.Describe("payment engine scenarios", func() {
	// Each scenario is exercised at two batch sizes (one line per batch and a
	// batch large enough to hold the whole file) to demonstrate the result
	// does not depend on where batch boundaries fall.
	for _, batchSize := range []int{1, 1024} {
		batchSize := batchSize

		ginkgo.It("locks an account on chargeback of a disputed deposit", func() {
			out := runScenario("../../testdata/lock-account.csv", batchSize)
			Expect(out).To(ContainSubstring("client,available,held,total,locked"))
			Expect(out).To(ContainSubstring("0,-55.5000,0.0,-55.5000,true"))
		})

		ginkgo.It("unlocks held funds when a dispute is resolved", func() {
			out := runScenario("../../testdata/resolved-dispute.csv", batchSize)
			Expect(out).To(ContainSubstring("0,44.5000,0.0,44.5000,false"))
		})

		ginkgo.It("keeps clients independent across interleaved batches", func() {
			out := runScenario("../../testdata/three-clients.csv", batchSize)
			Expect(out).To(ContainSubstring("0,99.0,0.0,99.0,false"))
			Expect(out).To(ContainSubstring("1,-1.0,99.0,98.0,false"))
			Expect(out).To(ContainSubstring("2,-1.0,98.0,97.0,false"))
		})

		ginkgo.It("tolerates surrounding whitespace in fields", func() {
			out := runScenario("../../testdata/with-whitespace.csv", batchSize)
			Expect(out).To(ContainSubstring("0,100.0,0.0,100.0,false"))
		})

		ginkgo.It("ignores a dispute referencing an unknown transaction", func() {
			out := runScenario("../../testdata/unknown-tx.csv", batchSize)
			Expect(out).To(ContainSubstring("0,10.0,0.0,10.0,false"))
		})

		ginkgo.It("ignores a withdrawal exceeding available, then allows a smaller one", func() {
			out := runScenario("../../testdata/over-withdrawal.csv", batchSize)
			Expect(out).To(ContainSubstring("0,5.0,0.0,5.0,false"))
		})
	}

	ginkgo.It("returns an error when the input file does not exist", func() {
		logger := xlog.New("engine-test", slog.LevelError)
		rec := metrics.NewRecorder()
		cfg := engine.Config{BatchSize: 1024, MaxConcurrentClients: 8}

		var out bytes.Buffer
		err := engine.Run(context.Background(), "../../testdata/does-not-exist.csv", &out, cfg, logger, rec)
		Expect(err).To(HaveOccurred())
	})
})
