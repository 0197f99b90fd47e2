// Package httputil provides HTTP-side helpers shared by the service client.
//
// # Caching
//
// [Cache] keeps JSON responses on disk (by default under
// $XDG_CACHE_HOME/cardforge or ~/.cache/cardforge) with a configurable TTL.
// The card client uses it to remember improved prompts, so asking the service
// to rewrite the same text twice does not cost a second round trip:
//
//	cache, err := httputil.NewCache("", 24*time.Hour)
//	prompts := cache.Namespace("improve:")
//	var improved string
//	if ok, _ := prompts.Get(text, &improved); !ok {
//	    improved = askService(text)
//	    prompts.Set(text, improved)
//	}
//
// Generated cards are never cached: the service returns a new image for every
// request.
//
// The cache can be cleared via `cardforge cache clear` or by deleting the
// directory.
package httputil
