// Package internal contains the implementation packages of the tamer CLI.
//
// # Package Organization
//
// An autolink pass flows through these packages in order:
//
//   - discovery: finds packages under node_modules that ship a tamer.json
//     manifest and resolves them into module descriptors
//   - naming: derives Gradle project ids, pod names and class names
//   - emit: renders the Gradle, CocoaPods and registry text for a
//     descriptor list
//   - merge: splices generated text between marker comments, or writes
//     generated files outright
//   - autolink: orchestrates one pass and reports a Summary
//
// Supporting packages:
//
//   - config: tamer.config.json loading (viper), validation and the init
//     wizard
//   - scaffolding: android/ and ios/ host project creation
//   - toolchain: Gradle download and wrapper setup, pod install
//   - bundle: builds the Lynx bundle and copies it into a host project
//   - watcher: debounced fsnotify watching for link --watch
//   - relay: development WebSocket log relay
//   - errors, logging, types, version: shared infrastructure
//
// # Inter-Package Communication
//
// There are no global registries. The descriptor list is passed explicitly
// from discovery through emit to merge, so every pass is a pure function of
// the files on disk and the host configuration.
package internal
