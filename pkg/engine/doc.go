// Package engine serves a database snapshot over HTTP.
//
// Routes (GET and HEAD; OPTIONS answers 200 on every path):
//
//	/                  index: {name, docs, collections}
//	/docs              swagger-ui viewer; ?format=json returns the documentation view
//	/openapi.json      OpenAPI 3.0.3 document for the current snapshot
//	/{collection}      list with filters, q, _page and _limit; sets X-Total-Count
//	/{collection}/{id} detail with _expand and _embed
//
// Unknown routes and collections answer a plain text 404. A known collection
// without the requested id answers {"error": "Not found"} with status 404.
//
// The optional admin listener serves /metrics, /health and the request
// history at /requests.
//
// Each request reads exactly one snapshot from the configured Source, so a
// reload between requests is never observed half-way.
package engine
