// Package pollfeedservice implements the social polling feed inside the
// social-polling context.
//
// The module owns poll creation, the keyset-paginated feed aggregation read,
// the vote and like ledgers, and the per-poll comment log. Business rules
// live in application/domain layers; storage and transport concerns sit
// behind ports and adapters. The client package carries the optimistic
// reconciliation layer that feed consumers run locally.
package pollfeedservice
