// Package exporter provides CSV export functionality for reconciliation
// reports.
//
// This package contains two main components:
//
// CSVWriter: Core CSV writing functionality with support for headers,
// streaming, and UTF-8 BOM for Excel compatibility. Relative file names
// resolve against the configured reports directory.
//
// ReportExporter: Turns analysis results into report files, one CSV per
// report: batch profit breakdown, category summary, rate anomalies, product
// variance, vendor leaderboard, orphan sales and expense rollups.
//
// Example usage:
//
//	re := exporter.NewReportExporter(cfg.ReportsDir())
//	if err := re.ExportBatchProfits(profits, exporter.BatchProfitFile); err != nil {
//		return err
//	}
package exporter
