// Package directory defines the boundary to the external home-automation
// control plane ("Entity Directory"): live entity state, areas, devices,
// and automations.
//
// The Directory interface is consumed by the classifier (area names only),
// the indexing pipeline, the search engine, and the relationship graph
// builder. All of them treat not-found answers as "skip and continue" and
// transient failures as a reason to degrade, never to crash.
//
// Client is the HTTP implementation; mock.Directory is an in-memory fixture
// for tests and seeding.
package directory
