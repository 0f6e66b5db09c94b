//go:build gomock || generate

package logcat

//go:generate sh -c "go run go.uber.org/mock/mockgen -build_flags=\"-tags=gomock\" -package logcat -self_package github.com/tigerwill90/retrie/logcat -destination mock_event_handler_test.go github.com/tigerwill90/retrie/logcat EventHandler"
