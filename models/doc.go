// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

JSON field names match database column names, so the same value can be
served from a list endpoint or pushed through the realtime feed.

# Request Types

Types for parsing incoming JSON, validated with struct tags:

  - CreateCommentRequest: user_name, comment, comment_type
  - CreatePrayerRequest: user_name (unless anonymous), prayer_request
  - CreateSongRequest: user_name, song_title, optional artist/message
  - CastVoteRequest: option
  - LoginRequest: username, password
  - CreateScheduleRequest, CreateSermonRequest, CreateThemeRequest,
    CreatePollRequest: admin content forms
  - SetPublishedRequest, SetActiveRequest, UpdateSongStatusRequest: admin toggles

Run TrimFields then Validate before touching the database:

	models.TrimFields(&req)
	if err := models.Validate(&req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

# Domain Types

  - ScheduleEntry: radio program grid row
  - SermonOutline, StudyTheme: publishable study content
  - Poll, Vote: live poll and its votes (one per poll and submitter)
  - PrayerRequest, Comment, SongRequest: listener interactions
  - AdminUser: admin console account

# Song Request Workflow

	pending → approved → completed
	pending → rejected

SongTransitionAllowed encodes the moves the admin console offers.
*/
package models
