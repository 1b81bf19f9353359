// Package workflow runs the photo pipeline: a fixed pool of workers claims
// pending photos from the queue and walks each one through tag extraction,
// person resolution, scene description, and name assembly, persisting the
// queue row after every stage transition.
//
// A worker owns a claimed photo until it reaches a terminal status. External
// service failures degrade the photo's result instead of failing it; only
// store and filesystem errors mark a photo failed.
package workflow
