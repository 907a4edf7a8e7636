// Package tabs binds a group of clickable tab titles to their content bodies
// and keeps the selected tab in lock-step with the location registry.
//
// Expected markup beneath a group container:
//
//	<div class="tabs">
//	  <ul class="tabs__titles">
//	    <li class="tabs__title tabs__title_active_yes"><a class="tabs__control" href="#langs=go">Go</a></li>
//	    <li class="tabs__title"><a class="tabs__control" href="#langs=rust">Rust</a></li>
//	  </ul>
//	  <div class="tabs__body tabs__body_active_yes">...</div>
//	  <div class="tabs__body">...</div>
//	</div>
//
// Controls are the .tabs__control elements inside the first .tabs__titles;
// each href ends in "#<group>=<tab>". A title is the closest .tabs__title
// around a control (possibly the control itself). Bodies are the direct
// .tabs__body children of the container.
//
// Titles and bodies are paired by position: the Nth title goes with the Nth
// body. Nothing checks that the two collections line up, and every control
// must name the same group. Both are preconditions on the markup.
//
// A Group writes its active tab into the registry under its group name and
// follows changes made there by anyone else. Show updates the group's own
// state before writing the registry, so the change notification caused by
// that write comes back as a no-op Show.
package tabs
