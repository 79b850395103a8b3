// Package fileutil holds small filesystem helpers shared by tubemeta packages.
package fileutil
