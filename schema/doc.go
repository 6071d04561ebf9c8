// Package schema loads the optional prefix registry used by the explain
// package.
//
// A registry document (version 1) looks like:
//
//	schema_version: 1
//	types:
//	  user:
//	    name: User
//	    owner_team: identity
//	    pii: true
//	    links:
//	      logs: https://logs.example.com/?q={id}
//
// Documents are read from JSON or YAML files (FileSource), from a SQL table
// (SQLSource) or from a ZooKeeper znode (ZKSource). Discover locates a file
// using the environment, the working directory and the user config
// directory.
package schema
