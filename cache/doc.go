// Package cache is the caching layer shared by the fraudwatch services: a
// closed, collision-free key namespace over one redis root, a tiered TTL
// policy table, a Store abstraction over the backend, and a typed Facade
// exposing read/write operations per business category.
//
// # Keys and TTLs
//
// Every key lives under the "fraudwatch" root and belongs to exactly one
// [Category]. [Key] and [EntityKey] are pure: the same (category, id) pair
// always yields the same string and distinct pairs never collide. TTLs are
// grouped into tiers in [TTLFor]; no component hardcodes a duration inline,
// so adjusting a tier changes every category in that tier at once.
//
// # Store
//
// [Store] abstracts the backend. [NewRedis] is the production
// implementation; every command is bounded by a per-operation timeout and
// reads fail open — a degraded backend looks like a cache miss, never an
// error on the caller's primary path. All cross-request atomicity (the
// set+expire pairing, the rate-limit counter) is delegated to redis
// primitives; no application-level locks exist in this layer.
//
// # Facade
//
// [Facade] serializes domain objects with msgpack and enforces the
// category/TTL pairing. A cache miss is an explicit not-present return,
// never an error; a payload that fails to decode is treated as absent and
// proactively deleted. Writing the active-alerts list also derives the
// critical subset onto the shorter real-time tier, so the subset can
// expire before the full list — treat its absence as "recompute", not
// "no critical alerts".
package cache
