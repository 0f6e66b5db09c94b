// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/retrie/blob/master/LICENSE.txt.

/*
Package retrie provides a trie keyed by sequences of regular expressions, used to classify a sequence
of tokens (for example the level, tag and message of a log line) against a set of registered
pattern sequences.

	tr := retrie.MustNew[string]()
	tr.MustPut("anr", "E", "ActivityManager", `ANR in (\S+)`)
	tr.MustPut("watchdog", retrie.Wildcard, "Watchdog")

	var groups retrie.Groups
	category, ok := tr.RetrieveGroups(&groups, "E", "ActivityManager", "ANR in com.android.phone")
	// category == "anr", ok == true, groups == [[] [] [com.android.phone]]

Each pattern must match its token entirely. At each level, literal patterns are tried in registration
order and the first one matching wins; the [Wildcard] is only used when none of them matches, and
the walk never backtracks. A wildcard ending a registered sequence also consumes the remaining
tokens its deeper patterns do not accept, and the lookup returns its value.
*/
package retrie
