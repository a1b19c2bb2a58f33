// Package recon implements batch reconciliation and profit/vendor analytics
// over purchase and sale registers.
//
// The package links purchase records to sale records through a shared batch
// reference, decomposes each sale into revenue/cost/discount/free-goods
// components, aggregates these into per-batch profit with configurable
// profit-sharing splits, and performs cross-batch statistical analysis
// (vendor rate variance, iterative anomaly detection on purchase rates).
//
// # Core Components
//
//   - types.go: Purchase and Sale records with derived classification
//   - index.go: batch index linking purchases to sales by batch reference
//   - shares.go: segment-keyed profit-share configuration
//   - profit.go: per-sale and per-batch profit decomposition
//   - summary.go: category and overall profit summaries
//   - anomaly.go: iterative median-based purchase rate anomaly detection
//   - variance.go: product rate variance and vendor leaderboard analysis
//   - orphan.go: orphan sale and charge/advertising item reporting
//
// # Usage Example
//
//	index := recon.BuildBatchIndex(purchases, sales)
//	dec, err := recon.NewDecomposer(index, recon.DefaultShareConfig(), slog.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	profits := dec.BatchProfits(recon.TradeableCategories())
//	summary := recon.Summarize(profits)
//
// Every function in this package is a deterministic, read-only computation
// over its inputs. No source record is ever mutated and no result is
// persisted; callers own the lifecycle of both.
package recon
