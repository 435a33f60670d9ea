// Package pagesift turns registered web sources into structured content
// records. It fetches pages with a cheap static strategy first, escalates to
// a headless browser only when static extraction cannot produce usable text,
// and deduplicates extracted content by hash so repeated ingestion of an
// unchanged page is a no-op.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, rod/, goquery/); the
// ingestion state machine and coordinator live in ingest/.
package pagesift
