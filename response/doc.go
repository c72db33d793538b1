// Package response reads document analysis results, either straight from
// the SDK output types or from saved JSON.
//
// Asynchronous jobs return their result in fragments linked by a next
// token. [Combine] merges the fragments into one [Response] and checks they
// belong together:
//
//	fragments, err := response.Decode(f)
//	resp, err := response.Combine(fragments)
//	if err := resp.Validate(); err != nil {
//	    return err
//	}
//	doc, err := model.NewDocument(resp.Blocks)
//
// [Load] and [Open] run the three steps in one call.
package response
