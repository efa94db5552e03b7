// Package schema reads table metadata: the column listing of a table and
// the next auto-increment id it will hand out.
//
//	insp := schema.NewInspector(drv)
//	cols, err := insp.Columns(ctx, "posts")   // ["id", "author_id", "title"]
//	next, err := insp.NextID(ctx, "posts")    // 43
//
// Column listings rarely change; wrap the inspector with NewCached to
// serve them from a modelkit.Cache:
//
//	cached := schema.NewCached(insp, cache.NewMemory(), schema.WithTTL(time.Minute))
package schema
