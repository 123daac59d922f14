/*
Package dsl provides a Go DSL (Domain Specific Language) for programmatically constructing questflow flows.

It allows developers to define branching questionnaires using a type-safe, fluent builder pattern
instead of relying on external YAML or JSON files. This is particularly useful for dynamic flow
generation, unit testing, and leveraging IDE autocompletion/type-checking.

Example usage:

	b := dsl.New()

	b.Add("q_stacks").
		Question("stacks", "What's in your stack?").
		Multi().Required().MinItems(1).
		Options(dsl.Opt("web", "Web"), dsl.Opt("server", "Server")).
		Go("q_web").When(dsl.Contains("stacks", "web")).Order(10).
		Go("q_pkg").Order(100)

	b.Add("q_web").Question("web_lang", "Web language").Multi()
	b.Add("q_pkg").Question("pkg", "Package manager").Required()

	flow, err := b.Build()
	// ... or b.Loader() to pass to questflow.New("", questflow.WithLoader(loader))

Unlike the engine, which tolerates malformed flows, Build rejects edges to undeclared nodes.
*/
package dsl
