// Package mettakg provides the knowledge graph integration layer shared
// by the demo agents: a small concept/relationship catalog queried
// through a remote MeTTa graph service, with an embedded keyword-based
// fallback used whenever that service is unreachable.
//
// # Basic Usage
//
// Build the stores, seed them, and wire a gateway:
//
//	concepts := store.NewConceptStore()
//	relationships := store.NewRelationshipStore()
//	store.DefaultSeed().Apply(concepts, relationships)
//
//	svc := remote.NewClient(remote.Config{Endpoint: "http://localhost:8080"}, logger)
//	kg, err := mettakg.NewClient(svc, concepts, relationships, nil, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	resp, err := kg.Query(ctx, "fever treatment", nil)
//
// Every query tries the remote service first and silently degrades to
// the local engine on any transport failure; resp.Source reports which
// path served it. The only error Query returns is ErrQueryRequired for
// blank input; connectivity problems never reach the caller.
//
// Writes are dual: AddConcept and AddRelationship attempt the remote
// service best-effort and always land in the local stores, so the
// fallback path stays consistent with runtime additions.
package mettakg
