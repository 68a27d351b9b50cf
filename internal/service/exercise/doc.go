// Package exercise selects which exercise to present for a card during a
// review session. Selection balances the scheduler's difficulty hint against
// variety: kinds shown recently in the session rank below kinds the learner
// has not seen for a few cards.
package exercise
