package types

import "testing"

func TestValidate_Requests(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		req     any
		wantErr bool
	}{
		{"save ok", SaveSnapshotRequest{RecordID: "r1"}, false},
		{"save missing record", SaveSnapshotRequest{}, true},
		{"add ok", AddToBankRequest{RecordID: "r1", Cards: []map[string]any{{"question": "q"}}}, false},
		{"add empty cards", AddToBankRequest{RecordID: "r1"}, true},
		{"sync ok", SyncTopicListsRequest{RecordID: "r1"}, false},
		{"assign ok", AssignReviewBoxRequest{RecordID: "r1", CardID: "c1", Box: 3}, false},
		{"assign box too high", AssignReviewBoxRequest{RecordID: "r1", CardID: "c1", Box: 6}, true},
		{"assign box too low", AssignReviewBoxRequest{RecordID: "r1", CardID: "c1", Box: 0}, true},
		{"assign missing card", AssignReviewBoxRequest{RecordID: "r1", Box: 1}, true},
		{"create ok", CreateRecordRequest{OwnerID: "u1"}, false},
		{"create missing owner", CreateRecordRequest{}, true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := Validate(tc.req)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate(%+v) = %v, wantErr %v", tc.req, err, tc.wantErr)
			}
		})
	}
}

func TestValidateIDPresent(t *testing.T) {
	t.Parallel()
	if err := ValidateIDPresent("r1", "recordId"); err != nil {
		t.Errorf("valid id rejected: %v", err)
	}
	for _, id := range []string{"", "   ", "\t"} {
		if err := ValidateIDPresent(id, "recordId"); err == nil {
			t.Errorf("blank id %q accepted", id)
		}
	}
}
