// Package internal contains the implementation packages of the docskin CLI.
//
// # Package Organization
//
//   - icons: the immutable icon table, bundled and site icons
//   - datauri: percent-encoding of icon markup into CSS data URIs
//   - sidebar: navigation items, the icon-decorating category renderer and
//     the menu markup
//   - docitem: render-failure isolation for doc page bodies
//   - frontmatter: YAML front matter parsing and document plugins
//   - content: loading a docs tree into pages and a sidebar
//   - redirect: legacy URL redirect pages and handler
//   - site: the concurrent static build
//   - server, watcher, websocket: the live-reloading preview
//   - config, logging, errors, version: shared infrastructure
//
// # Rendering Flow
//
// content walks the docs directory and produces a sidebar tree plus one
// page per document. site renders each page through a layout whose sidebar
// uses sidebar.IconCategory: a category whose customProps.icon names an
// entry in the icon table gets a --category-icon style and a data-has-icon
// marker; every other category renders exactly as the base renderer would.
//
// The icon table is built once before rendering and never written, so
// pages render concurrently without locking.
package internal
