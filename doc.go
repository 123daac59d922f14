/*
Package questflow is a branching questionnaire engine.

A flow is a directed graph of question nodes joined by conditionally gated edges.
Given the answers collected so far, the engine derives which questions are visible,
which one comes next, whether the answers are valid and which answers went stale
after an earlier choice changed.

# Concept

The engine holds no answers. Every call takes the current answer set and returns
plain data, so hosts (HTTP server, MCP server, CLI) own persistence and concurrency.
The flow is loaded once through a ports.FlowLoader and treated as read-only.

# Usage

	eng, err := questflow.New("./flow.yaml")
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	answers := domain.Answers{"stacks": domain.Multi("web")}

	state, err := eng.Progress(ctx, answers, nil)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("next question:", state.CurrentNodeID)

	// After an answer changes, drop what is no longer reachable.
	answers, err = eng.Commit(ctx, answers)

The pure algorithms live in pkg/engine and can be used without the facade.
*/
package questflow
