//go:build !unix

package system

func InitResourceLimits() {}
