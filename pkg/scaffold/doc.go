// Package scaffold turns a resolved set of project answers into a scaffold
// plan: the ordered list of directory creations, verbatim copies and template
// renders that produce a starter AngularJS project tree.
//
// The package performs no I/O. [BuildPlan] is a pure function of its
// [ProjectConfig] argument, holds no state, and is safe for concurrent use.
// Replaying the plan is the job of a materializer, which must execute the
// operations strictly in order:
//
//	ops, err := scaffold.BuildPlan(scaffold.DefaultProjectConfig("acme-app"))
//	if err != nil {
//		// *errors.ConfigurationError, nothing was planned
//	}
//	for _, op := range ops {
//		// mkdir / copy / render op.Destination
//	}
package scaffold
