package components

import (
	"strconv"
	"strings"

	"github.com/conneroisu/sparkle/internal/carousel"
)

// interactionScript drives the carousels and image viewers in the browser.
// It mirrors the carousel and viewer packages; the breakpoints are filled in
// from Go so both sides agree.
var interactionScript = strings.NewReplacer(
	"{{DESKTOP}}", strconv.Itoa(carousel.DesktopWidth),
	"{{TABLET}}", strconv.Itoa(carousel.TabletWidth),
).Replace(`
(function(){
  function show(){var w=window.innerWidth;return w>={{DESKTOP}}?4:w>={{TABLET}}?2:1}
  document.querySelectorAll("[data-carousel]").forEach(function(root){
    var id=root.dataset.carousel,n=+root.dataset.length,i=0,hover=false;
    var track=root.querySelector(".carousel-track");
    function paint(){
      if(track){track.style.transform="translateX(-"+(i*100/show())+"%)"}
      root.querySelectorAll("[data-slide]").forEach(function(s){s.hidden=+s.dataset.slide!==i});
      root.querySelectorAll("[data-carousel-goto]").forEach(function(b){
        if(+b.dataset.carouselGoto===i){b.setAttribute("aria-current","true")}else{b.removeAttribute("aria-current")}
      });
    }
    function next(){i=i+1>=n?0:i+1;paint()}
    function prev(){i=i-1<0?n-1:i-1;paint()}
    root.querySelectorAll('[data-carousel-next="'+id+'"]').forEach(function(b){b.onclick=next});
    root.querySelectorAll('[data-carousel-prev="'+id+'"]').forEach(function(b){b.onclick=prev});
    root.querySelectorAll("[data-carousel-goto]").forEach(function(b){
      b.onclick=function(){i=+b.dataset.carouselGoto;paint()}
    });
    root.onmouseenter=function(){hover=true};
    root.onmouseleave=function(){hover=false};
    setInterval(function(){if(!hover&&document.body.dataset.loading!=="true"){next()}},+root.dataset.interval);
    window.addEventListener("resize",paint);
  });
  document.querySelectorAll("[data-viewer-open]").forEach(function(el){
    el.onclick=function(){
      var m=document.getElementById(el.dataset.viewerOpen);if(!m){return}
      var min=+m.dataset.minZoom,max=+m.dataset.maxZoom,step=+m.dataset.zoomStep,z=min,ox=0,oy=0;
      var img=m.querySelector(".viewer-image"),stage=m.querySelector(".viewer-stage");
      function paint(){
        img.style.transform="scale("+z+")";img.style.transformOrigin=(ox*100)+"% "+(oy*100)+"%";
        stage.style.cursor=z>min?"move":"zoom-in";m.querySelector(".viewer-hint").hidden=z>min;
      }
      function reset(){z=min;ox=0;oy=0;paint()}
      m.querySelector(".viewer-title").textContent=el.dataset.name;
      m.querySelector(".viewer-detail").textContent=el.dataset.detail||"";
      img.src=el.dataset.src;img.alt=el.dataset.name;
      stage.onclick=function(e){e.stopPropagation();z=Math.min(z+step,max);paint()};
      stage.onmousemove=function(e){if(z>min){var r=stage.getBoundingClientRect();ox=(e.clientX-r.left)/r.width;oy=(e.clientY-r.top)/r.height;paint()}};
      m.querySelectorAll("[data-viewer-action]").forEach(function(b){
        b.onclick=function(e){
          e.stopPropagation();
          switch(b.dataset.viewerAction){
            case "zoom-in":z=Math.min(z+step,max);paint();break;
            case "zoom-out":z=Math.max(z-step,min);paint();break;
            case "reset":reset();break;
            case "close":reset();m.hidden=true;break;
          }
        };
      });
      m.onclick=function(e){if(e.target===m){reset();m.hidden=true}};
      reset();m.hidden=false;
    };
  });
})();
`)
