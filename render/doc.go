// Package render evaluates parsed templates against data.
//
// [Compile] translates every condition and interpolation path of a
// [lang.Root] into an expr-lang program once. [Template.Execute] then runs
// the programs against a data context, which may be a map or a struct.
//
// Paths resolve through the data with optional chaining, so a missing key
// yields nil instead of an error: %{user.address.city} renders as empty
// text when user has no address. A segment written as a call, such as
// items.size(), invokes the method of that name. The bare names true,
// false and nil denote the corresponding literals, which permits
// conditions such as <#if(user.active == true)>.
package render
