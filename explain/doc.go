// Package explain inspects strings that may or may not be TypeIDs.
//
// Explain is total: every input, including the empty string and arbitrary
// bytes, yields an Explanation. Structural failures are reported through
// Valid=false and Errors; a well formed id whose prefix has no schema entry
// is reported through Schema.Found=false. The two outcomes are never
// conflated.
//
//	exp := explain.Explain("user_01h45z113fexh8c1at7axm1r75",
//	    explain.WithSchema(explain.MapLookup{"user": {Prefix: "user", Name: "User"}}))
//	fmt.Println(exp.Valid, exp.Schema.Found, exp.Parsed.CreatedAt)
//
// Schema entries come from any SchemaLookup; the schema package loads them
// from files, SQL tables or ZooKeeper.
package explain
