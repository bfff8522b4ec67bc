// Package internal contains the implementation packages behind the sparkle
// command.
//
// # Package Organization
//
//   - loadgate: per-page tracker that opens once every leaf section reports
//   - asset: image loaders that feed the tracker
//   - components, carousel, pagination, viewer: storefront sections
//   - catalog, imageopt, theme: static data, image variants and palette
//   - page: the site's routes and the session that mounts a page
//   - build: static generation, manifests and build metrics
//   - server, livereload, watcher, registry: the live preview
//   - audit: accessibility checks over generated HTML
//   - config, logging, errors, validation, version: ambient plumbing
//
// # Page Lifecycle
//
// A page session registers every leaf section with a fresh tracker, starts
// the leaves' image loads and waits. The tracker opens its gate when every
// registered leaf has reported, or when the gate timeout forces it. Only
// then is the page rendered; a forced page is recorded as such in the build
// manifest.
package internal
