// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package metrics exposes Prometheus collectors for the poll server.

	m := metrics.New(db.Len)
	mux.Handle("/metrics", m.Handler())

Collectors:

  - pollbox_polls_created_total
  - pollbox_votes_recorded_total
  - pollbox_rejections_total{reason}
  - pollbox_http_requests_total{method,route,status}
  - pollbox_save_duration_seconds{result}
  - pollbox_polls (gauge, read from the database on scrape)
*/
package metrics
