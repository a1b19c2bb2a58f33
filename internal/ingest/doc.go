// Package ingest reads purchase, sales and expense registers from Excel
// workbooks and maps their rows onto the domain records consumed by the
// analytics packages.
//
// The register layouts come from the distributor's accounting exports:
// "Purchases" and "Sales" sheets with the header on the third row, and a
// day-wise expense sheet with the header on the fourth. Missing or
// unparseable cells coerce to a defined default (zero, empty string);
// rows missing mandatory identifiers are skipped and counted, and never
// reach the analytics layer.
package ingest
