// Package reqctx carries per-request state through application services.
//
// A RequestContext is built once by HTTP middleware and passed explicitly as
// the second argument of every service operation. It holds:
//
//   - the Actor making the request (anonymous when UserID is zero)
//   - the page request parsed from the query string
//   - a memo cache so repeated lookups inside one request hit storage once
//   - staged compensable actions committed in order and rolled back in
//     reverse when one fails
//
// Memoization:
//
//	user, err := reqctx.Fetch(ctx, rc, "user:7", func(ctx context.Context) (*domain.User, error) {
//	    return users.GetByID(ctx, 7)
//	})
//
// Staged writes:
//
//	rc.AddAction(reqctx.Func("store image", save, remove))
//	rc.AddAction(reqctx.Func("persist recipe", persist, nil))
//	if err := rc.Commit(ctx); err != nil {
//	    // the image has been removed again
//	}
package reqctx
