// Package hclunit provides declarative override units written in HCL. The
// unit for namespace N lives at <root>/N.hcl:
//
//	exports = ["PRIORITY_DEFAULT", "IO_ERR", "OPTION_ERROR"]
//
//	constant "PRIORITY_DEFAULT" {
//	  value = 0
//	}
//
//	alias "IO_ERR" {
//	  namespace = "GLib"
//	  target    = "IOCondition_ERR"
//	}
//
//	deprecated "OPTION_ERROR" {
//	  replacement = "GLib.OptionError"
//	}
//
// constant blocks define values, alias blocks copy an attribute from a raw
// (un-overridden) namespace, and deprecated blocks flag exported names.
package hclunit
