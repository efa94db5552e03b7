// Package modelkit holds the shared vocabulary of the model helpers:
// the Entity reference type, the error values returned by stores and
// inspectors, and the Cache interface.
//
// The helpers themselves live in sub-packages:
//
//   - relation: checks whether a chain of entities is connected through
//     named associations.
//   - memstore, sqlstore: Store implementations the relation checker reads from.
//   - schema: column listing and next auto-increment id of a table.
//   - attribute: UTF-8 re-encoding of string attributes.
//   - discover: finds model types in Go packages on disk.
//   - codegen: generates typed references from an entity registry.
//   - privacy: access policies decided by relation chains.
//   - config: the modelkit.yaml file shared by the command line and codegen.
//
// A minimal relation check:
//
//	store := memstore.New()
//	author := modelkit.NewRef("Author", 1)
//	post := modelkit.NewRef("Post", 42)
//	store.Put(author, post)
//	store.Relate(author, "posts", post)
//
//	v := relation.New(store)
//	ok := v.AreRelated(ctx, relation.Of(author), relation.Of(post)) // true
package modelkit
