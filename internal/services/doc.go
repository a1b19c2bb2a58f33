// Package services implements the business logic layer between the HTTP
// transport and the analysis packages.
//
// ReconService owns the loaded register data and exposes the analyses over
// it: batch profit decomposition, purchase rate anomaly detection, product
// rate variance, vendor rankings, orphan sale reconciliation and the
// expense ledger rollups. Register data is loaded once and shared; all
// reads go through a RWMutex so a reload cannot race in-flight requests.
//
// HealthService reports process health and whether register data has been
// loaded.
//
// Services receive their dependencies through constructors and log through
// an injected *slog.Logger.
package services
