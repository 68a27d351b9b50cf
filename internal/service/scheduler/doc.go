// Package scheduler decides what a review session works on. It builds the
// card queue for a session (due cards interleaved with a controlled trickle
// of new ones), adapts per-session limits to how the learner is performing,
// hints the exercise difficulty to aim for per card, and surfaces the topics
// a struggling learner should focus on.
//
// Every adaptive decision carries a human-readable reasoning string so the
// client can show the learner why the session looks the way it does.
package scheduler
