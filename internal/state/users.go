package state

// ReduceUsers applies a to the users slice. It reports false, and returns s
// unchanged, for actions the slice does not handle.
func ReduceUsers(s UsersState, a Action) (UsersState, bool) {
	switch a := a.(type) {
	case LoadUsers, AddUser, UpdateUser, DeleteUser:
		s.Loading, s.Err = true, nil
	case LoadUserDetails:
		s.Loading, s.FetchingDetail, s.Err = true, true, nil

	case LoadUsersSuccess:
		s.Users = s.Users.SetAll(a.Users)
		s.Loading, s.Err = false, nil
	case LoadUsersFailure:
		s.Loading, s.Err = false, newFailure(LoadFailure, a, a.Err)

	// A second success for the same id updates in place rather than
	// duplicating, which covers racing adds.
	case AddUserSuccess:
		s.Users = s.Users.UpsertOne(a.User)
		s.Loading, s.Err = false, nil
	case AddUserFailure:
		s.Loading, s.Err = false, newFailure(AddFailure, a, a.Err)

	case UpdateUserSuccess:
		s.Users, _ = s.Users.UpdateOne(a.User)
		s.Loading, s.Err = false, nil
	case UpdateUserFailure:
		s.Loading, s.Err = false, newFailure(UpdateFailure, a, a.Err)

	case DeleteUserSuccess:
		s.Users, _ = s.Users.RemoveOne(a.UserID)
		if s.SelectedUserID != nil && *s.SelectedUserID == a.UserID {
			s.SelectedUserID = nil
		}
		s.Loading, s.Err = false, nil
	case DeleteUserFailure:
		s.Loading, s.Err = false, newFailure(DeleteFailure, a, a.Err)

	case SelectUser:
		if a.UserID == nil {
			s.SelectedUserID = nil
			// Clearing cancels the detail fetch, which then never settles.
			if s.FetchingDetail {
				s.Loading, s.FetchingDetail = false, false
			}
		} else {
			s.SelectedUserID = ID(*a.UserID)
		}

	case LoadUserDetailsSuccess:
		s.Users = s.Users.UpsertOne(a.User)
		s.Loading, s.FetchingDetail, s.Err = false, false, nil
	case LoadUserDetailsFailure:
		s.Loading, s.FetchingDetail, s.Err = false, false, detailFailure(a)

	default:
		return s, false
	}
	return s, true
}
