// Package github fetches documentation files and organization listings
// from GitHub.
//
// # Overview
//
// Two endpoints are used:
//
//   - raw.githubusercontent.com for documentation files, unauthenticated
//   - the REST API (via go-github) for listing an organization's repositories
//
// # Usage
//
//	client, err := github.NewClient(github.Options{Token: os.Getenv("GITHUB_TOKEN")})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	refs, err := client.ListOrgRepos(ctx, "OWASP")
//	text, ok := client.FetchDocument(ctx, "OWASP", "www-project-zap", "index.md")
//
// # Branch Fallback
//
// [Client.FetchDocument] tries each configured branch in order (main, then
// master by default) and returns the first 200 response. Any other status
// or a transport error moves on to the next branch. There are no retries.
//
// # Authentication
//
// A token is optional. When set it is attached to listing requests only,
// raising the API rate limit from 60 to 5000 requests per hour.
//
// # Pagination
//
// [Client.ListOrgRepos] requests 100 repositories per page and stops at the
// first empty page. If a page fails, the repositories collected so far are
// returned together with the error.
package github
