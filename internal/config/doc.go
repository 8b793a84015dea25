// Package config provides configuration structures and utilities for gdpreport.
// It defines where reports are written, which formats are produced, where the
// report specification file is found and where generation history is kept.
package config
