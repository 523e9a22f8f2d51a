// Package prompt implements the operator decisions the identification
// resolver delegates: choosing between TMDB candidates and supplying a TMDB
// id when a search found nothing.
//
// Terminal talks to a human over any reader/writer pair, Decline answers
// "none" for unattended runs, and Scripted replays canned answers.
package prompt
